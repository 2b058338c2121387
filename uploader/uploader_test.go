package uploader

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Validation(t *testing.T) {
	base := Config{
		Endpoint:  "localhost:9000",
		AccessKey: "access",
		SecretKey: "secret",
		Bucket:    "reports",
	}

	tests := []struct {
		description string
		mutate      func(*Config)
	}{
		{description: "missing endpoint", mutate: func(c *Config) { c.Endpoint = "" }},
		{description: "missing access key", mutate: func(c *Config) { c.AccessKey = " " }},
		{description: "missing secret key", mutate: func(c *Config) { c.SecretKey = "" }},
		{description: "missing bucket", mutate: func(c *Config) { c.Bucket = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.description, func(t *testing.T) {
			cfg := base
			tt.mutate(&cfg)
			_, err := New(cfg)
			assert.Error(t, err)
		})
	}

	u, err := New(base)
	require.NoError(t, err)
	assert.EqualValues(t, "us-east-1", u.region)
}

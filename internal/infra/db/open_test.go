package db

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPoolFromEnv(t *testing.T) {
	defaults := Pool{MaxOpen: 10, MaxIdle: 5, MaxLifetime: time.Hour, MaxIdleTime: 30 * time.Minute}

	tests := []struct {
		name string
		env  map[string]string
		want Pool
	}{
		{name: "unset", want: defaults},
		{
			name: "overrides",
			env:  map[string]string{"DB_MAX_OPEN_CONNS": "50", "DB_CONN_MAX_LIFETIME": "2h"},
			want: Pool{MaxOpen: 50, MaxIdle: 5, MaxLifetime: 2 * time.Hour, MaxIdleTime: 30 * time.Minute},
		},
		{
			name: "garbage and non-positive keep defaults",
			env:  map[string]string{"DB_MAX_OPEN_CONNS": "many", "DB_MAX_IDLE_CONNS": "-1", "DB_CONN_MAX_IDLE_TIME": "0s"},
			want: defaults,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, k := range []string{"DB_MAX_OPEN_CONNS", "DB_MAX_IDLE_CONNS", "DB_CONN_MAX_LIFETIME", "DB_CONN_MAX_IDLE_TIME"} {
				t.Setenv(k, tt.env[k])
			}
			assert.Equal(t, tt.want, PoolFromEnv())
		})
	}
}

func TestOpen_NoDSN(t *testing.T) {
	_, err := Open(context.Background(), "")
	assert.ErrorIs(t, err, ErrNoDSN)
}

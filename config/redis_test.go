package config

import "testing"

func TestRedisOptions(t *testing.T) {
	tests := []struct {
		name     string
		conn     string
		addr     string
		password string
		tls      bool
		wantErr  bool
	}{
		{name: "url", conn: "redis://:pw@cache:6380/0", addr: "cache:6380", password: "pw"},
		{name: "plain", conn: "localhost:6379", addr: "localhost:6379"},
		{name: "azure", conn: "cache.redis.cache.windows.net:6380,password=abc=,ssl=True,abortConnect=False", addr: "cache.redis.cache.windows.net:6380", password: "abc=", tls: true},
		{name: "empty", conn: " ", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts, err := Config{RedisConnectionString: tt.conn}.RedisOptions()
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if opts.Addr != tt.addr || opts.Password != tt.password || (opts.TLSConfig != nil) != tt.tls {
				t.Fatalf("unexpected options addr=%q password=%q tls=%v", opts.Addr, opts.Password, opts.TLSConfig != nil)
			}
		})
	}
}

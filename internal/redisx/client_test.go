package redisx

import (
	"testing"
	"time"
)

func TestNewClientCarriesTimeouts(t *testing.T) {
	rdb := New("localhost:6379")
	defer rdb.Close()

	opts := rdb.Options()
	if opts.DialTimeout != 2*time.Second {
		t.Fatalf("dial timeout %v", opts.DialTimeout)
	}
	if opts.ReadTimeout != 2*time.Second || opts.WriteTimeout != 2*time.Second {
		t.Fatalf("read/write timeouts %v/%v", opts.ReadTimeout, opts.WriteTimeout)
	}
}

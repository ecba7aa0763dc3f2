package cache

import "testing"

func TestParseOptionsRequiresURL(t *testing.T) {
	if _, err := ParseOptions("  ", false); err == nil {
		t.Fatal("expected empty url to be rejected")
	}
}

func TestParseOptionsInsecureTLS(t *testing.T) {
	opt, err := ParseOptions("redis://:secret@localhost:6379/2", true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opt.Addr != "localhost:6379" || opt.Password != "secret" || opt.DB != 2 {
		t.Fatalf("unexpected options: addr=%s db=%d", opt.Addr, opt.DB)
	}
	if opt.TLSConfig == nil || !opt.TLSConfig.InsecureSkipVerify {
		t.Fatal("expected insecure TLS config to be applied")
	}
}

func TestParseOptionsPlainURLHasNoTLS(t *testing.T) {
	opt, err := ParseOptions("redis://localhost:6379", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opt.TLSConfig != nil {
		t.Fatal("expected no TLS config for redis:// url")
	}
}

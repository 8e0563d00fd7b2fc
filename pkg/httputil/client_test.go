package httputil

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestClientSingleton(t *testing.T) {
	if Client(TierMedium) != Client(TierMedium) {
		t.Error("Client() should return the same instance for the same tier")
	}
	if Client(TierFast) == Client(TierSlow) {
		t.Error("different tiers should return different clients")
	}
}

func TestClientTimeouts(t *testing.T) {
	tests := []struct {
		tier    TimeoutTier
		want    time.Duration
		getFunc func() *http.Client
	}{
		{TierFast, 5 * time.Second, FastClient},
		{TierMedium, 30 * time.Second, MediumClient},
		{TierSlow, 60 * time.Second, SlowClient},
	}
	for _, tt := range tests {
		if c := tt.getFunc(); c.Timeout != tt.want {
			t.Errorf("tier %d timeout = %v, want %v", tt.tier, c.Timeout, tt.want)
		}
	}
}

func TestTierFor(t *testing.T) {
	tests := []struct {
		name string
		d    time.Duration
		want TimeoutTier
	}{
		{"zero_deadline", 0, TierFast},
		{"webhook_default", 5 * time.Second, TierFast},
		{"just_over_fast", 6 * time.Second, TierMedium},
		{"standard_call", 30 * time.Second, TierMedium},
		{"bulk_export", 45 * time.Second, TierSlow},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TierFor(tt.d); got != tt.want {
				t.Errorf("TierFor(%v) = %d, want %d", tt.d, got, tt.want)
			}
			if tt.d > 0 && Client(TierFor(tt.d)).Timeout < tt.d {
				t.Errorf("selected tier timeout %v does not cover %v", Client(TierFor(tt.d)).Timeout, tt.d)
			}
		})
	}
}

func TestClientConnectionReuse(t *testing.T) {
	var requests int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}))
	defer server.Close()

	client := MediumClient()
	for i := range 10 {
		resp, err := client.Get(server.URL)
		if err != nil {
			t.Fatalf("request %d failed: %v", i, err)
		}
		DrainAndClose(resp.Body)
	}

	if requests != 10 {
		t.Errorf("server saw %d requests, want 10", requests)
	}
}

func TestReadResponseBody(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		maxSize int64
		wantLen int
	}{
		{"normal_read", "hello world", 1024, 11},
		{"truncated_read", strings.Repeat("x", 1000), 100, 100},
		{"default_max_size", "test", 0, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ReadResponseBody(strings.NewReader(tt.input), tt.maxSize)
			if err != nil {
				t.Fatalf("ReadResponseBody() error = %v", err)
			}
			if len(got) != tt.wantLen {
				t.Errorf("ReadResponseBody() len = %d, want %d", len(got), tt.wantLen)
			}
		})
	}
}

func TestReadErrorBodyTruncates(t *testing.T) {
	large := strings.Repeat("error details ", 100000) // ~1.4MB

	got, err := ReadErrorBody(strings.NewReader(large))
	if err != nil {
		t.Fatalf("ReadErrorBody() error = %v", err)
	}
	if len(got) > 1024*1024 {
		t.Errorf("ReadErrorBody() returned %d bytes, want at most 1MB", len(got))
	}
}

type trackingReader struct {
	io.Reader
	fullyRead bool
}

func (r *trackingReader) Read(p []byte) (n int, err error) {
	n, err = r.Reader.Read(p)
	if err == io.EOF {
		r.fullyRead = true
	}
	return
}

func TestDrainAndClose(t *testing.T) {
	r := &trackingReader{Reader: bytes.NewReader([]byte("leftover body"))}
	DrainAndClose(io.NopCloser(r))

	if !r.fullyRead {
		t.Error("DrainAndClose should fully drain the body so the connection can be reused")
	}
}

func TestDrainAndCloseNil(t *testing.T) {
	DrainAndClose(nil)
}

func BenchmarkPooledClient(b *testing.B) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	b.Run("shared_pool", func(b *testing.B) {
		client := MediumClient()
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			resp, _ := client.Get(server.URL)
			if resp != nil {
				DrainAndClose(resp.Body)
			}
		}
	})

	b.Run("client_per_request", func(b *testing.B) {
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			client := &http.Client{Timeout: 30 * time.Second}
			resp, _ := client.Get(server.URL)
			if resp != nil {
				_, _ = io.Copy(io.Discard, resp.Body)
				_ = resp.Body.Close()
			}
		}
	})
}

package devicecache_test

import (
	"errors"
	"testing"

	"github.com/statuswatch/devicecache"
)

func TestStatusRoundTrip(t *testing.T) {
	for _, status := range devicecache.Statuses() {
		parsed, err := devicecache.ParseStatus(status.String())
		if err != nil {
			t.Fatalf("ParseStatus(%q) error = %v", status.String(), err)
		}
		if parsed != status {
			t.Errorf("ParseStatus(%q) = %v, want %v", status.String(), parsed, status)
		}
		if !status.Valid() {
			t.Errorf("Valid() = false for %v", status)
		}
	}
}

func TestParseStatusCaseInsensitive(t *testing.T) {
	cases := map[string]devicecache.Status{
		"ENABLED":          devicecache.StatusEnabled,
		"Needs_Attention":  devicecache.StatusNeedsAttention,
		" unreachable ":    devicecache.StatusUnreachable,
		"WORKING_NORMALLY": devicecache.StatusWorkingNormally,
	}

	for name, want := range cases {
		got, err := devicecache.ParseStatus(name)
		if err != nil {
			t.Errorf("ParseStatus(%q) error = %v", name, err)
			continue
		}
		if got != want {
			t.Errorf("ParseStatus(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestParseStatusRejectsUnknown(t *testing.T) {
	_, err := devicecache.ParseStatus("rebooting")
	if !errors.Is(err, devicecache.ErrInvalidStatus) {
		t.Errorf("ParseStatus() error = %v, want ErrInvalidStatus", err)
	}
}

func TestStatusValid(t *testing.T) {
	if devicecache.Status(-1).Valid() {
		t.Error("Valid() = true for -1")
	}
	if devicecache.Status(99).Valid() {
		t.Error("Valid() = true for 99")
	}
	if devicecache.Status(99).String() != "unknown" {
		t.Errorf("String() = %q for out-of-range status, want unknown", devicecache.Status(99).String())
	}
}

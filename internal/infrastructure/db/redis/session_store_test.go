package redis

import (
	"reflect"
	"testing"

	"github.com/printmanage/console/internal/core/domain"
)

func TestSessionEncoding(t *testing.T) {
	in := &domain.Session{
		ID:          "01J0",
		Token:       "tok",
		UserID:      4,
		Role:        domain.RoleTechnician,
		Roles:       []string{domain.RoleTechnician, domain.RoleAdmin},
		DisplayName: "Awa",
		DarkMode:    true,
	}
	raw := encodeSession(in)
	vals := make(map[string]string, len(raw))
	for k, v := range raw {
		vals[k] = v.(string)
	}

	out := decodeSession("01J0", vals)
	if !reflect.DeepEqual(in, out) {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", out, in)
	}
}

func TestSessionEncoding_NoToken(t *testing.T) {
	raw := encodeSession(&domain.Session{ID: "x", Role: domain.RoleAdmin})
	if _, ok := raw[fieldToken]; ok {
		t.Fatalf("an empty token must not be written")
	}
	out := decodeSession("x", map[string]string{fieldRole: domain.RoleAdmin})
	if out.Token != "" || out.Roles != nil || out.DarkMode {
		t.Fatalf("unexpected defaults %+v", out)
	}
}

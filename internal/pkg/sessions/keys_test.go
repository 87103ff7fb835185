package sessions

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyBuilders(t *testing.T) {
	subject := "7b0d2c90-1a9f-4a57-9f5e-1a2b3c4d5e6f"
	jti := "0f8fad5b-d9cb-469f-a165-70867728950e"

	key := SessionKey(subject, jti)
	assert.Equal(t, "session:"+subject+":"+jti, key)
	assert.Equal(t, jti, JTIFromSessionKey(key))
	assert.Equal(t, "session:"+subject+":*", SubjectPattern(subject))
	assert.Equal(t, "revoked:"+jti, TombstoneKey(jti))
}

func TestJTIFromSessionKey(t *testing.T) {
	tests := []struct {
		name string
		key  string
		want string
	}{
		{"valid key", "session:user-1:jti-1", "jti-1"},
		{"wrong prefix", "revoked:jti-1", ""},
		{"no jti segment", "session:", ""},
		{"bare prefix", "session:user-1:", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, JTIFromSessionKey(tt.key))
		})
	}
}

func TestTruncateDevice(t *testing.T) {
	assert.Equal(t, "Unknown", TruncateDevice(""))
	assert.Equal(t, "Mozilla/5.0", TruncateDevice("Mozilla/5.0"))

	long := make([]byte, 300)
	for i := range long {
		long[i] = 'a'
	}
	assert.Len(t, TruncateDevice(string(long)), deviceMaxLen)
}

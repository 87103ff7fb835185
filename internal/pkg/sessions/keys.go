package sessions

import "strings"

// Key layout in the shared store. Both readers and writers go through
// these builders so the schema cannot drift between them.
//
//	session:{subject}:{jti}  hash  device/ip/created_at/last_active
//	revoked:{jti}            string tombstone
const (
	sessionKeyPrefix   = "session:"
	tombstoneKeyPrefix = "revoked:"
)

// SessionKey builds the session record key for (subject, jti).
func SessionKey(subject, jti string) string {
	return sessionKeyPrefix + subject + ":" + jti
}

// SubjectPattern builds the scan pattern matching all of a subject's
// session keys.
func SubjectPattern(subject string) string {
	return sessionKeyPrefix + subject + ":*"
}

// TombstoneKey builds the revocation tombstone key for a jti.
func TombstoneKey(jti string) string {
	return tombstoneKeyPrefix + jti
}

// JTIFromSessionKey extracts the jti from a session key. Returns "" for
// keys not produced by SessionKey.
func JTIFromSessionKey(key string) string {
	if !strings.HasPrefix(key, sessionKeyPrefix) {
		return ""
	}
	idx := strings.LastIndex(key, ":")
	if idx < 0 || idx == len(key)-1 {
		return ""
	}
	return key[idx+1:]
}

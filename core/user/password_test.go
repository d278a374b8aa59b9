package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	// sha256("admin123")
	const adminHash = "240be518fabd2724ddb6f04eeb1da5967448d7e831c08c8fa822809f74c720a9"

	hash, err := HashPassword("admin123", HasherSHA256)
	require.NoError(t, err)
	assert.Equal(t, adminHash, hash)

	hash, err = HashPassword("admin123", "")
	require.NoError(t, err)
	assert.Equal(t, adminHash, hash)

	_, err = HashPassword("admin123", "md5")
	assert.ErrorIs(t, err, ErrUnknownHasher)
}

func TestCheckPassword(t *testing.T) {
	sha, err := HashPassword("s3cret!", HasherSHA256)
	require.NoError(t, err)
	bc, err := HashPassword("s3cret!", HasherBcrypt)
	require.NoError(t, err)

	tests := []struct {
		name string
		hash string
		pwd  string
		want bool
	}{
		{name: "sha256 match", hash: sha, pwd: "s3cret!", want: true},
		{name: "sha256 mismatch", hash: sha, pwd: "S3cret!", want: false},
		{name: "bcrypt match", hash: bc, pwd: "s3cret!", want: true},
		{name: "bcrypt mismatch", hash: bc, pwd: "nope", want: false},
		{name: "empty hash", hash: "", pwd: "", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CheckPassword(tt.hash, tt.pwd))
		})
	}
}

func TestActor_HasAnyRole(t *testing.T) {
	admin := User{ID: 1, Username: "admin", Role: RoleAdmin}.Actor()
	tchr := Actor{UserID: 2, Username: "tchr", Role: RoleTeacher}

	assert.True(t, admin.HasAnyRole(RoleStudent))
	assert.True(t, tchr.HasAnyRole(RoleTeacher, RoleStudent))
	assert.False(t, tchr.HasAnyRole(RoleStudent))
	assert.True(t, tchr.HasAnyRole())
}

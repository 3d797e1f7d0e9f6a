package auth_test

import (
	"errors"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkeye/Helpline/internal/app/auth"
)

const secret = "bot-secret"

func signedPayload(t *testing.T, fields map[string]string) string {
	t.Helper()
	hash := auth.Sign([]byte(secret), auth.DataCheckString(fields))
	vals := url.Values{}
	for k, v := range fields {
		vals.Set(k, v)
	}
	vals.Set("hash", hash)
	return vals.Encode()
}

func TestDataCheckString(t *testing.T) {
	got := auth.DataCheckString(map[string]string{"query_id": "q", "auth_date": "1", "user": `{"id":1}`})
	assert.Equal(t, "auth_date=1\nquery_id=q\nuser={\"id\":1}", got)
	assert.Equal(t, "", auth.DataCheckString(nil))
}

func TestParseWebAppData(t *testing.T) {
	got, err := auth.ParseWebAppData("a=1&&novalue&b=hello%20world&c=x%3Dy&a=2")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"a": "2", "b": "hello world", "c": "x=y"}, got)

	_, err = auth.ParseWebAppData("a=%zz")
	assert.ErrorIs(t, err, auth.ErrMalformedPayload)
}

func TestValidator_Validate(t *testing.T) {
	v := auth.NewValidator(secret)
	valid := signedPayload(t, map[string]string{
		"auth_date": "1700000000",
		"query_id":  "AAE",
		"user":      `{"id":42,"first_name":"Анна","username":"anna","language_code":"ru"}`,
	})

	t.Run("valid", func(t *testing.T) {
		user, err := v.Validate(valid)
		require.NoError(t, err)
		assert.Equal(t, int64(42), user.ID)
		assert.Equal(t, "Анна", user.FirstName)
		assert.Equal(t, "anna", user.Username)
	})

	t.Run("uppercase hash accepted", func(t *testing.T) {
		fields := map[string]string{"auth_date": "1", "user": `{"id":7}`}
		hash := strings.ToUpper(auth.Sign([]byte(secret), auth.DataCheckString(fields)))
		payload := "auth_date=1&user=" + url.QueryEscape(`{"id":7}`) + "&hash=" + hash
		user, err := v.Validate(payload)
		require.NoError(t, err)
		assert.Equal(t, int64(7), user.ID)
	})

	tests := []struct {
		name    string
		payload string
		wantErr error
	}{
		{name: "empty", payload: "  ", wantErr: auth.ErrEmptyPayload},
		{name: "no hash", payload: "auth_date=1&user=%7B%7D", wantErr: auth.ErrMissingHash},
		{name: "tampered", payload: strings.Replace(valid, "1700000000", "1700000001", 1), wantErr: auth.ErrHashMismatch},
		{name: "wrong secret", payload: func() string {
			fields := map[string]string{"user": `{"id":1}`}
			return "user=" + url.QueryEscape(`{"id":1}`) + "&hash=" + auth.Sign([]byte("other"), auth.DataCheckString(fields))
		}(), wantErr: auth.ErrHashMismatch},
		{name: "no user", payload: signedPayload(t, map[string]string{"auth_date": "1"}), wantErr: auth.ErrMissingUser},
		{name: "bad user json", payload: signedPayload(t, map[string]string{"user": "{not json"}), wantErr: auth.ErrMalformedUser},
		{name: "bad escape", payload: "user=%zz&hash=00", wantErr: auth.ErrMalformedPayload},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, err := v.Validate(tt.payload)
			assert.Nil(t, user)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestTokenIssuer_Issue(t *testing.T) {
	ti := auth.NewTokenIssuer()

	a, err := ti.Issue(42)
	require.NoError(t, err)
	b, err := ti.Issue(42)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(a.AuthToken, "auth."))
	assert.True(t, strings.HasPrefix(a.RefreshToken, "refresh."))
	assert.Len(t, strings.TrimPrefix(a.AuthToken, "auth."), 43)
	assert.NotEqual(t, a.AuthToken, b.AuthToken)
	assert.NotEqual(t, a.RefreshToken, b.RefreshToken)

	id, ok := ti.LookupAuth(a.AuthToken)
	assert.True(t, ok)
	assert.Equal(t, int64(42), id)
	id, ok = ti.LookupRefresh(b.RefreshToken)
	assert.True(t, ok)
	assert.Equal(t, int64(42), id)

	_, ok = ti.LookupAuth(a.RefreshToken)
	assert.False(t, ok)
}

func TestService_Authenticate(t *testing.T) {
	s := auth.NewService(secret)

	res, err := s.Authenticate(signedPayload(t, map[string]string{"user": `{"id":5,"first_name":"Bo"}`}))
	require.NoError(t, err)
	assert.Equal(t, int64(5), res.User.ID)
	id, ok := s.Tokens.LookupAuth(res.AuthToken)
	assert.True(t, ok)
	assert.Equal(t, int64(5), id)

	_, err = s.Authenticate("user=x&hash=deadbeef")
	assert.True(t, errors.Is(err, auth.ErrHashMismatch))
}

package models

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestAccount_Public(t *testing.T) {
	refresh := "refresh-token"
	account := Account{
		ID:             uuid.New(),
		Username:       "chai",
		Email:          "chai@example.com",
		FullName:       "Chai Aur Code",
		HashedPassword: "hashed",
		AvatarURL:      "https://cdn.example.com/avatar.png",
		RefreshToken:   &refresh,
	}

	public := account.Public()
	data, err := json.Marshal(public)
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(data, &fields))

	require.NotContains(t, fields, "password")
	require.NotContains(t, fields, "refreshToken")
	require.NotContains(t, string(data), "hashed")
	require.NotContains(t, string(data), refresh)
	require.Equal(t, "chai", fields["username"])
	require.Equal(t, []any{}, fields["watchHistory"], "empty history rendered as empty list")
}

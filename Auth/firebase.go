package Auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"

	"firebase.google.com/go/v4/auth"

	"Podium/Models"
)

// ErrInvalidCredentials covers every credential-shaped rejection from the
// identity provider: unknown email, wrong password, disabled account.
var ErrInvalidCredentials = errors.New("invalid email or password")

const signInEndpoint = "https://identitytoolkit.googleapis.com/v1/accounts:signInWithPassword"

// SignInResult is the slice of the Identity Toolkit response we keep.
type SignInResult struct {
	UID     string `json:"localId"`
	Email   string `json:"email"`
	IDToken string `json:"idToken"`
}

type toolkitError struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// SignInWithPassword verifies credentials against Firebase Authentication.
// Also used as the re-authentication step before a password change.
func SignInWithPassword(email, password string) (*SignInResult, error) {
	apiKey := os.Getenv("FIREBASE_WEB_API_KEY")

	payload, err := json.Marshal(map[string]interface{}{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	})
	if err != nil {
		return nil, err
	}

	resp, err := http.Post(fmt.Sprintf("%s?key=%s", signInEndpoint, apiKey),
		"application/json", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("identity provider unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var toolkitErr toolkitError
		if err := json.NewDecoder(resp.Body).Decode(&toolkitErr); err != nil {
			return nil, fmt.Errorf("identity provider returned status %d", resp.StatusCode)
		}
		if isCredentialFailure(toolkitErr.Error.Message) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("identity provider error: %s", toolkitErr.Error.Message)
	}

	var result SignInResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}
	return &result, nil
}

func isCredentialFailure(message string) bool {
	for _, code := range []string{
		"INVALID_PASSWORD",
		"EMAIL_NOT_FOUND",
		"INVALID_LOGIN_CREDENTIALS",
		"USER_DISABLED",
	} {
		if strings.HasPrefix(message, code) {
			return true
		}
	}
	return false
}

// UpdatePassword sets a new password on the Firebase account. The caller
// is expected to have re-authenticated first.
func UpdatePassword(ctx context.Context, uid, newPassword string) error {
	update := (&auth.UserToUpdate{}).Password(newPassword)
	if _, err := Models.AuthClient.UpdateUser(ctx, uid, update); err != nil {
		return fmt.Errorf("error updating password: %v", err)
	}
	return nil
}

// GetUser resolves a Firebase UID to its account record.
func GetUser(ctx context.Context, uid string) (*auth.UserRecord, error) {
	return Models.AuthClient.GetUser(ctx, uid)
}

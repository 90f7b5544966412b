package firebase

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"
)

// App holds the initialized Firebase app and auth client
type App struct {
	FirebaseApp *firebase.App
	AuthClient  *auth.Client
}

// Identity is what a verified Firebase ID token tells us about its holder
type Identity struct {
	UID   string
	Email string
	Name  string
}

// InitFirebase initializes the Firebase application and authentication client
func InitFirebase(ctx context.Context, credentialsPath string) (*App, error) {
	if credentialsPath == "" {
		return nil, fmt.Errorf("firebase credentials path not provided")
	}

	if _, err := os.Stat(credentialsPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("firebase credentials file not found at %s", credentialsPath)
	}

	opt := option.WithCredentialsFile(credentialsPath)

	firebaseApp, err := firebase.NewApp(ctx, nil, opt)
	if err != nil {
		return nil, fmt.Errorf("error initializing firebase app: %w", err)
	}

	authClient, err := firebaseApp.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting firebase auth client: %w", err)
	}

	slog.Info("firebase auth client initialized")
	return &App{FirebaseApp: firebaseApp, AuthClient: authClient}, nil
}

// VerifyIDToken checks a Firebase ID token and extracts the holder's identity.
// Tokens without an email claim are rejected since profiles are keyed by email.
func (a *App) VerifyIDToken(ctx context.Context, idToken string) (*Identity, error) {
	token, err := a.AuthClient.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, err
	}

	email, _ := token.Claims["email"].(string)
	if email == "" {
		return nil, fmt.Errorf("firebase token for %s carries no email", token.UID)
	}
	name, _ := token.Claims["name"].(string)

	return &Identity{UID: token.UID, Email: email, Name: name}, nil
}

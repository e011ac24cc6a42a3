package gmail

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gmailapi "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

// NewService builds an authenticated Gmail service. Credentials come from an
// OAuth2 client secrets file; the exchanged token is cached at tokenFile so
// the browser flow only runs once.
func NewService(ctx context.Context, credentialsFile, tokenFile string, logger *zap.Logger) (*gmailapi.Service, error) {
	b, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("cannot read credentials file: %w", err)
	}

	config, err := google.ConfigFromJSON(b, gmailapi.GmailReadonlyScope)
	if err != nil {
		return nil, fmt.Errorf("cannot parse credentials file: %w", err)
	}

	tok, err := tokenFromFile(tokenFile)
	if err != nil {
		logger.Info("No cached token, starting OAuth flow",
			zap.String("token_file", tokenFile))
		tok, err = getTokenFromWeb(ctx, config)
		if err != nil {
			return nil, err
		}
		saveToken(tokenFile, tok, logger)
	}

	srv, err := gmailapi.NewService(ctx, option.WithTokenSource(config.TokenSource(ctx, tok)))
	if err != nil {
		return nil, fmt.Errorf("cannot create gmail service: %w", err)
	}

	return srv, nil
}

func getTokenFromWeb(ctx context.Context, config *oauth2.Config) (*oauth2.Token, error) {
	authURL := config.AuthCodeURL("state-token", oauth2.AccessTypeOffline)
	fmt.Println("1) Copy this URL and open it in your browser:")
	fmt.Println(authURL)
	fmt.Println("\n2) Sign in and accept the permissions.")
	fmt.Print("3) Paste the authorization code here: ")

	var authCode string
	if _, err := fmt.Scan(&authCode); err != nil {
		return nil, fmt.Errorf("cannot read auth code: %w", err)
	}

	tok, err := config.Exchange(ctx, authCode)
	if err != nil {
		return nil, fmt.Errorf("cannot exchange code for token: %w", err)
	}
	return tok, nil
}

func tokenFromFile(path string) (*oauth2.Token, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var tok oauth2.Token
	if err := json.NewDecoder(f).Decode(&tok); err != nil {
		return nil, err
	}
	return &tok, nil
}

func saveToken(path string, tok *oauth2.Token, logger *zap.Logger) {
	f, err := os.Create(path)
	if err != nil {
		logger.Warn("Cannot save token", zap.Error(err))
		return
	}
	defer f.Close()

	if err := json.NewEncoder(f).Encode(tok); err != nil {
		logger.Warn("Cannot encode token", zap.Error(err))
		return
	}
	logger.Info("Token saved", zap.String("path", path))
}

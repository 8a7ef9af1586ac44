package cli

import (
	"context"
	"errors"
	"log"

	"github.com/capseal/capseal-go/internal/common"
)

// Login stores an auth token for future submissions. The token is issued by
// the sealing service's account flow and pasted here; it is read without
// echo like a password.
func (a *App) Login(ctx context.Context) error {
	token, err := GetToken()
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}
	if len(token) == 0 {
		log.Println("Empty token, nothing stored")
		return nil
	}

	if err := a.tokens.Save(string(token)); err != nil {
		log.Printf("Error: %s", err.Error())
		return err
	}

	if _, err := a.tokens.Token(ctx); err != nil {
		if errors.Is(err, common.ErrTokenExpired) {
			log.Println("Warning: stored token is already expired")
		}
	} else {
		log.Println("Token stored")
	}
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	if err := a.tokens.Clear(); err != nil {
		log.Printf("Error: %s", err.Error())
		return err
	}
	log.Println("Token removed; captures will sync unauthenticated")
	return nil
}

package cli

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/capseal/capseal-go/internal/client/services"
)

func (a *App) Delete(ctx context.Context, id string) error {
	err := a.captures.Delete(ctx, id)
	if errors.Is(err, services.ErrorSyncInProgress) {
		fmt.Println("Capture is being synced right now; try again in a moment")
		return err
	}
	if err != nil {
		log.Printf("Error: %s", err.Error())
		return err
	}

	fmt.Println("Deleted")
	return nil
}

func (a *App) Clear(ctx context.Context) error {
	if err := a.captures.Clear(ctx); err != nil {
		log.Printf("Error: %s", err.Error())
		return err
	}

	fmt.Println("Queue cleared")
	return nil
}

package cli

import (
	"context"
	"fmt"
	"log"
	"time"
)

func formatMillis(ms int64) string {
	if ms == 0 {
		return "-"
	}
	return time.UnixMilli(ms).Format(time.RFC3339)
}

func (a *App) List(ctx context.Context) error {
	items, err := a.captures.List(ctx)
	if err != nil {
		log.Println(err.Error())
		return err
	}

	if len(items) == 0 {
		fmt.Println("Queue is empty")
		return nil
	}

	for _, item := range items {
		line := fmt.Sprintf("%s  %-7s  %-7s  %s  attempts=%d", item.LocalID, item.MediaType, item.Status, item.Filename, item.SyncAttempts)
		if item.ErrorMessage != "" {
			line = line + "  error=" + item.ErrorMessage
		}
		fmt.Println(line)
	}
	return nil
}

func (a *App) Seals(ctx context.Context) error {
	items, err := a.captures.ListSeals(ctx)
	if err != nil {
		log.Println(err.Error())
		return err
	}

	if len(items) == 0 {
		fmt.Println("Nothing sealed yet")
		return nil
	}

	for _, item := range items {
		fmt.Printf("%s  tier=%-10s  sealed %s\n", item.SealID, item.TrustTier, formatMillis(item.SyncedAt))
	}
	return nil
}

func (a *App) Status(ctx context.Context) error {
	sum, err := a.captures.Summary(ctx)
	if err != nil {
		log.Println(err.Error())
		return err
	}

	fmt.Printf("Pending: %d\n", sum.PendingCount)
	if sum.LastSyncAt != nil {
		fmt.Printf("Last sync: %s\n", formatMillis(*sum.LastSyncAt))
	} else {
		fmt.Println("Last sync: never")
	}
	if sum.LastSyncError != "" {
		fmt.Printf("Last error: %s\n", sum.LastSyncError)
	}
	return nil
}

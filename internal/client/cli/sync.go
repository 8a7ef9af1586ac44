package cli

import (
	"context"
	"fmt"
	"log"
)

func (a *App) Sync(ctx context.Context, id string) error {
	if id == "" {
		if err := a.sync.SyncAll(ctx, a.tokens.Token); err != nil {
			log.Println(err.Error())
			return err
		}
		return a.Status(ctx)
	}

	resp, err := a.sync.SyncOne(ctx, id, a.tokens.Token)
	if err != nil {
		log.Println(err.Error())
		return err
	}
	if resp == nil {
		fmt.Println("Capture not sealed; see 'list' for its state")
		return nil
	}
	fmt.Printf("Sealed as %s\n", resp.SealID)
	return nil
}

func (a *App) Retry(ctx context.Context, id string) error {
	resp, err := a.sync.Retry(ctx, id, a.tokens.Token)
	if err != nil {
		log.Println(err.Error())
		return err
	}
	if resp == nil {
		fmt.Println("Capture not sealed; see 'list' for its state")
		return nil
	}
	fmt.Printf("Sealed as %s\n", resp.SealID)
	return nil
}

func (a *App) Pause() {
	a.coordinator.Pause()
	fmt.Println("Summary refreshes paused")
}

func (a *App) Resume() {
	a.coordinator.Resume()
	fmt.Println("Summary refreshes resumed")
}

package cli

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/tabclient/internal/filex"
	"github.com/dmitrijs2005/tabclient/internal/netx"
)

// downloadDir is where "tab <id>" saves files.
var downloadDir = "downloads"

// guard opens path and reports whether the command may proceed.
func (a *App) guard(ctx context.Context, path string) bool {
	ok, err := a.Open(ctx, path)
	return err == nil && ok
}

// report prints a service error. Expired sessions get the standard message.
func (a *App) report(action string, err error) error {
	if errors.Is(err, netx.ErrSessionExpired) {
		a.println(netx.SessionExpiredMessage)
		return err
	}
	a.printf("%s failed: %v\n", action, err)
	return err
}

// Tabs lists the tabs on the service.
func (a *App) Tabs(ctx context.Context) error {
	if !a.guard(ctx, "/tabs") {
		return nil
	}

	tabs, err := a.tabs.List(ctx)
	if err != nil {
		return a.report("Listing tabs", err)
	}
	if len(tabs) == 0 {
		a.println("No tabs yet")
		return nil
	}
	for _, t := range tabs {
		a.println(t.String())
	}
	return nil
}

// Tab downloads one tab into downloadDir.
func (a *App) Tab(ctx context.Context, id string) error {
	if !a.guard(ctx, "/tabs/"+id) {
		return nil
	}

	data, err := a.tabs.Get(ctx, id)
	if err != nil {
		return a.report("Download", err)
	}

	dest, err := filex.SaveAs(downloadDir, id, data)
	if err != nil {
		return a.report("Download", err)
	}
	a.printf("Saved %d bytes to %s\n", len(data), dest)
	return nil
}

// Upload sends a local tab file.
func (a *App) Upload(ctx context.Context, path string) error {
	if !a.guard(ctx, "/tabs") {
		return nil
	}

	tab, err := a.tabs.Upload(ctx, path)
	if err != nil {
		return a.report("Upload", err)
	}
	a.printf("Uploaded %s as %s\n", tab.Filename, tab.ID)
	return nil
}

// RemoveTab deletes a tab on the service.
func (a *App) RemoveTab(ctx context.Context, id string) error {
	if !a.guard(ctx, "/tabs/"+id) {
		return nil
	}

	if err := a.tabs.Delete(ctx, id); err != nil {
		return a.report("Delete", err)
	}
	a.println("Deleted", id)
	return nil
}

// Health probes the service without credentials.
func (a *App) Health(ctx context.Context) error {
	h, err := a.tabs.Health(ctx)
	if err != nil {
		a.println("Service unavailable:", err)
		return err
	}
	a.printf("Service is %s (%s)\n", h.Status, h.Timestamp)
	return nil
}

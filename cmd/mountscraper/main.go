package main

import (
	"context"
	"mountscraper/cmd/mountscraper/commands"
	"mountscraper/lib/serviceutil"
	"mountscraper/lib/telemetry"
	"os"
	"time"
)

func main() {
	ctx := serviceutil.SignalContext()

	telemetry.InitSlog(false)
	t, err := telemetry.SetupFromEnv(ctx, "mountscraper")
	if err != nil {
		serviceutil.Fatal("setup telemetry", err)
	}
	if t.Enabled() {
		telemetry.InstrumentPerfStats(ctx, time.Second*5)
	}

	err = commands.ExecuteContext(ctx)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()
	t.Shutdown(shutdownCtx)

	if err != nil {
		os.Exit(1)
	}
}

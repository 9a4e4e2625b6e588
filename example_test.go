package debloat_test

import (
	"context"
	"fmt"
	"log"

	"github.com/aretw0/debloat"
	"github.com/aretw0/debloat/pkg/catalog"
	"github.com/aretw0/debloat/pkg/domain"
	"github.com/aretw0/debloat/pkg/ports"
)

// ExampleNew shows a run over a custom catalog with a fake executor,
// the way a test or an embedding host would drive the engine.
func ExampleNew() {
	tweaks := &domain.Catalog{Categories: []domain.Category{
		{ID: "system", Options: []domain.Option{
			{ID: "cleanup", Name: "Cleanup", Default: true, Command: "cleanup"},
			{ID: domain.RestorePointID, Name: "Restore point", Default: true, Command: "checkpoint"},
		}},
	}}

	echo := ports.ExecutorFunc(func(_ context.Context, command string) domain.StepResult {
		return domain.Succeeded("ran " + command)
	})

	eng, err := debloat.New(
		debloat.WithCatalog(catalog.NewStatic(tweaks)),
		debloat.WithExecutor(echo),
	)
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	sess, err := eng.Session(ctx, "example")
	if err != nil {
		log.Fatal(err)
	}

	sess.Run(ctx)

	view := sess.View()
	for _, line := range view.Run.Log {
		fmt.Println(line)
	}
	fmt.Println("progress:", view.Run.Progress)

	// Output:
	// Starting debloat process...
	// Running: Restore point...
	// Result: ran checkpoint
	// Running: Cleanup...
	// Result: ran cleanup
	// Debloat process completed.
	// progress: 100
}

// Command matcalc multiplies random matrices with the naive and Strassen
// algorithms, compares their products and reports their performance.
package main

import (
	"context"
	"os"

	"github.com/agbru/matcalc/internal/app"
	apperrors "github.com/agbru/matcalc/internal/errors"
)

func main() {
	if app.HasVersionFlag(os.Args[1:]) {
		app.PrintVersion(os.Stdout)
		os.Exit(apperrors.ExitSuccess)
	}

	application, err := app.New(os.Args, os.Stderr)
	if err != nil {
		if app.IsHelpError(err) {
			os.Exit(apperrors.ExitSuccess)
		}
		os.Exit(apperrors.ExitErrorConfig)
	}

	os.Exit(application.Run(context.Background(), os.Stdout))
}

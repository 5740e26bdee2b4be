// Package taxonomy materializes the destination directory set before any
// transfer runs.
package taxonomy

import (
	"context"
	"fmt"
	"os"

	"curator/internal/services"
)

// Materialize creates every directory in dirs with create-if-missing
// semantics. Repeated and concurrent invocations for the same paths succeed;
// an unwritable output root is a configuration error.
func Materialize(ctx context.Context, dirs []string) (int, error) {
	created := 0
	for _, dir := range dirs {
		if err := ctx.Err(); err != nil {
			return created, err
		}
		if _, err := os.Stat(dir); err == nil {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return created, services.Wrap(
				services.ErrConfiguration,
				"taxonomy",
				"create directory",
				fmt.Sprintf("cannot create %s; check that the output root is writable", dir),
				err,
			)
		}
		created++
	}
	return created, nil
}

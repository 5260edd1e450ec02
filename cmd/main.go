// cmd/main.go
package main

import (
	"fmt"
	"os"

	"go-bankist/app"
)

// @title           Bankist API
// @version         1.0
// @description     Single-session account ledger with statements, transfers, loans and a logout timer.

// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT

// @host      localhost:8080
// @BasePath  /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := app.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "bankist:", err)
		os.Exit(1)
	}
}

// cmd/main.go
package main

import (
	"granite-core/app"
)

// @title           Granite Client Core API
// @version         1.0
// @description     Token lifecycle, deep-link resolution and transaction queries for the Granite app.

// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT

// @host      localhost:8787
// @BasePath  /
func main() {
	app.Run()
}

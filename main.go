package main

import "accounfix/internal/app"

func main() {
	app.Main()
}

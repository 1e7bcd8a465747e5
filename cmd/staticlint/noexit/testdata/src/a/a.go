package main

import (
	"log"
	"os"
	exit "os"
)

func helper() {
	os.Exit(2)
}

func main() {
	defer helper()

	if len(os.Args) > 3 {
		log.Fatal("too many arguments")
	}

	os.Exit(1)   // want "avoid using os.Exit in main.main"
	exit.Exit(1) // want "avoid using os.Exit in main.main"
}

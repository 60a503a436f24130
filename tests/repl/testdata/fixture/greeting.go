package main

import "fmt"

// TODO: support localized greetings
func Greet(name string) string {
	return fmt.Sprintf("Hello, %s!", name)
}

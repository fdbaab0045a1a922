package main

import "dayflow/cmd/df/root"

func main() {
	root.Execute()
}

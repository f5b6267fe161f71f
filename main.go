package main

import "github.com/docportal/docportal/cmd/portal"

func main() {
	portal.Execute()
}

package main

import "github.com/dbsmedya/locmatrix/cmd/locmatrix/cmd"

func main() {
	cmd.Execute()
}

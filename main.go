package main

import "github.com/peerconnect/pairing-service/cmd"

func main() {
	cmd.Execute()
}

package main

import (
	"github.com/architeacher/svc-blog-events/cmd/brokerctl/cmd"
)

func main() {
	cmd.Execute()
}

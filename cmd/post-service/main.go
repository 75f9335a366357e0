package main

import (
	"github.com/architeacher/svc-blog-events/internal/runtime"
)

func main() {
	runtime.NewSubscriber().Run()
}

package main

//go-build: CGO_ENABLED=0

import (
	"flag"
	"log"

	"github.com/golang/glog"

	fx "github.com/dayrise/dayrise.go/pkg/framework"
	"github.com/dayrise/dayrise.go/pkg/slave"
)

func init() {
	slave.SetupFlags()
}

func main() {
	flag.Parse()
	defer glog.Flush()

	node := slave.NewConfig().MustNewNode()
	if err := fx.NewRunner().HandleSignals().Go(fx.NamedRun("node", node)).Wait(); err != nil {
		glog.Flush()
		log.Fatalln(err)
	}
}

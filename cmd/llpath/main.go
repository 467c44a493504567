package main

import (
	"flag"
	"fmt"
	"os"
	"runtime/pprof"

	"github.com/llir/llvm/ir"
	log "github.com/sirupsen/logrus"
	"golang.org/x/exp/maps"
	xslices "golang.org/x/exp/slices"

	"github.com/BarrensZeppelin/llpath"
	"github.com/BarrensZeppelin/llpath/irutil"
)

var cpuprofile = flag.String("cpuprofile", "", "write cpu profile to `file`")
var debug = flag.Bool("debug", false, "print debug messages")
var extern = flag.Bool("extern", false, "print externalized path keys")

func main() {
	flag.Parse()

	if flag.NArg() == 0 {
		log.Fatal("Specify .ll modules on the command line")
	}

	log.SetFormatter(&log.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "15:04:05",
	})
	if *debug {
		log.SetLevel(log.DebugLevel)
	}

	if *cpuprofile != "" {
		f, err := os.Create(*cpuprofile)
		if err != nil {
			log.Fatal("could not create CPU profile: ", err)
		}
		defer func() {
			if err := f.Close(); err != nil {
				log.Fatal("Failed to close", f)
			}
		}()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal("could not start CPU profile: ", err)
		}
		defer pprof.StopCPUProfile()
	}

	for _, path := range flag.Args() {
		m, err := irutil.ParseModuleFile(path)
		if err != nil {
			log.Fatalf("Loading module failed: %v", err)
		}

		log.Printf("Loaded %s with %d functions", path, len(m.Funcs))

		counts := make(map[string]int)
		for _, f := range m.Funcs {
			printPaths(f, counts)
		}

		if *extern && len(counts) > 0 {
			log.Printf("%d distinct externalizable paths", len(counts))

			keys := maps.Keys(counts)
			xslices.Sort(keys)
			for _, key := range keys {
				fmt.Printf("%s: %d\n", key, counts[key])
			}
		}
	}
}

// printPaths prints the access path of every memory instruction in f and
// tallies externalizable paths by key.
func printPaths(f *ir.Func, counts map[string]int) {
	for _, block := range f.Blocks {
		for _, inst := range block.Insts {
			path, err := llpath.FromInstruction(f, inst)
			if err != nil {
				continue
			}

			abstract := path.Abstract()
			fmt.Printf("%s: %v => %v\n", f.Name(), path, abstract)

			if *extern {
				e, err := abstract.Externalize()
				if err != nil {
					log.Debugf("Not externalizable: %v", err)
					continue
				}

				text, _ := e.MarshalText()
				counts[string(text)]++
			}
		}
	}
}

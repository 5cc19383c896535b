package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	shellquote "github.com/kballard/go-shellquote"

	wad "github.com/stuarthighley/wadnodes"
)

const (
	defaultWidth  = 1920
	defaultHeight = 1080
)

func main() {
	useMmap := flag.Bool("mmap", false, "Memory map archive files instead of reading them")
	maxArchives := flag.Int("max-archives", wad.DefaultMaxArchives, "Maximum number of archives to load")
	mapName := flag.String("map", "", "Level to open first (default: first level found)")
	pngPath := flag.String("png", "", "Render the level to this PNG file and exit")
	verbose := flag.Bool("v", false, "Log archive and level loading")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] wad [pwad...]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(1)
	}
	if *verbose {
		wad.SetLogger(log.New(os.Stderr, "", log.LstdFlags))
	}

	store := wad.NewStore(wad.WithMmap(*useMmap), wad.WithMaxArchives(*maxArchives))
	defer store.Close()

	for _, path := range flag.Args() {
		if _, err := store.LoadArchive(path); err != nil {
			log.Fatalf("Failed to load wad: %v", err)
		}
	}

	markers, err := store.FindLevelMarkers()
	if err != nil {
		log.Fatalln(err)
	}
	if len(markers) == 0 {
		log.Fatalln("Wad contains no map lumps")
	}
	fmt.Printf("Wad contains %d map lumps\n", len(markers))

	v := newViewer(store, markers)
	index := 0
	if *mapName != "" {
		marker, err := store.FindLevel(*mapName)
		if err != nil {
			log.Fatalln(err)
		}
		for i, m := range markers {
			if m == marker {
				index = i
			}
		}
	}
	if err := v.open(index); err != nil {
		log.Fatalln(err)
	}

	if *pngPath != "" {
		if err := v.writePNG(*pngPath, defaultWidth, defaultHeight); err != nil {
			log.Fatalln(err)
		}
		return
	}

	repl(v)
}

func repl(v *viewer) {
	fmt.Println("Type commands. 'help' for information or 'quit' to exit.")
	reader := bufio.NewReader(os.Stdin)
	for {
		fmt.Printf("%s> ", v.prompt())

		line, err := reader.ReadString('\n')
		if err != nil {
			fmt.Println()
			return
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		args, err := shellquote.Split(line)
		if err != nil {
			fmt.Println("parse error:", err)
			continue
		}
		if args[0] == "quit" || args[0] == "exit" {
			return
		}
		if err := v.exec(os.Stdout, args); err != nil {
			fmt.Println("error:", err)
		}
	}
}

package main

import (
	"fmt"
	"os"
	"sort"

	"scene-server/internal/content"
	"scene-server/internal/scenes"
	"scene-server/internal/script"
)

func main() {
	if len(os.Args) < 2 {
		printHelp()
		return
	}

	path := ""
	if len(os.Args) > 2 {
		path = os.Args[2]
	}

	switch os.Args[1] {
	case "check":
		tl, err := load(path)
		if err != nil {
			fmt.Printf("FAIL: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("OK: %s, %d steps, %s\n", tl.Name, len(tl.StepNames()), tl.Duration())
	case "steps":
		tl, err := load(path)
		if err != nil {
			fmt.Printf("FAIL: %v\n", err)
			os.Exit(1)
		}
		for _, o := range tl.Offsets() {
			marker := " "
			if o.Forked {
				marker = "+"
			}
			fmt.Printf("%9.2fs %s %s\n", o.At.Seconds(), marker, o.Name)
		}
	case "points":
		cat, err := content.Load(path)
		if err != nil {
			fmt.Printf("FAIL: %v\n", err)
			os.Exit(1)
		}
		for _, name := range cat.SceneNames() {
			scene, _ := cat.Scene(name)
			keys := make([]string, 0, len(scene.Points))
			for k := range scene.Points {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Printf("%s (quest %d):\n", name, scene.Quest)
			for _, k := range keys {
				fmt.Printf("  %-16s %d\n", k, len(scene.Points[k]))
			}
		}
	default:
		printHelp()
	}
}

// load читает каталог и собирает из него сценарий: та же проверка, что и при старте сервера.
func load(path string) (*script.Timeline, error) {
	cat, err := content.Load(path)
	if err != nil {
		return nil, err
	}
	return scenes.WarchiefTimeline(cat)
}

func printHelp() {
	fmt.Println(`Scene Lint - проверка каталога и сценария сцены
Commands:
  check [catalog.yaml]   - загрузить каталог и собрать сценарий
  steps [catalog.yaml]   - номинальное время каждого бита
  points [catalog.yaml]  - именованные точки сцен
Без пути используется встроенный каталог.`)
}

// Command lyndemo is a small driver embedding a hard-coded Lyn program
// and running it through every backend, printing the emitted assembly
// to stdout. It exists to give external collaborators a runnable,
// dependency-free example of the library API in lyn.go.
package main

import (
	"fmt"
	"log"

	"github.com/tgberrios/lync"
)

const demoSource = `main
    x = 3 + 4
    y = 10
    if x > y
        print("x wins")
    else
        print("y wins")
    end
    for i in range(0, 5)
        print(i)
    end
end
`

func main() {
	targets := []string{"x86_64", "arm32", "riscv64", "wasm"}

	for _, target := range targets {
		asm, warnings, err := lyn.CompileToString([]byte(demoSource), target)
		for _, warning := range warnings {
			log.Printf("[WARN] %s", warning)
		}
		if err != nil {
			log.Fatalf("compiling for %s: %s", target, err)
		}
		fmt.Printf("; ==== target: %s ====\n%s\n", target, asm)
	}
}

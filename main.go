// Command gymctl browses, prices and confirms gym membership plans.
package main

import "github.com/FabricioChang/Workshop-Continous-Integration/cmd"

func main() {
	cmd.Execute()
}

// Command centerid 管理本中心的安装记录并在命令行分配 ID。
//
//	centerid init --config centerid.yaml
//	centerid next --table orders --column id
//	centerid decode 42000000007
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

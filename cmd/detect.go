/*
Copyright © 2023 Michael Selway

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mselway/ecbcrack/attack"
	"github.com/mselway/ecbcrack/oracle"
)

// detectCmd represents the detect command
var detectCmd = &cobra.Command{
	Use:   "detect [secret]...",
	Short: "Probe the oracle for its block size and cipher mode",
	Long: `Probe the oracle without cracking anything: discover the cipher block size
from the first ciphertext length jump and report whether the repeated-block
heuristic identifies ECB mode.`,
	Run: func(cmd *cobra.Command, args []string) {
		detect(args)
	},
}

func init() {
	rootCmd.AddCommand(detectCmd)
}

func detect(args []string) {
	orc, err := oracle.New(getKey(), getSecret(args))
	cobra.CheckErr(err)
	blockSize, err := attack.FindBlockSize(orc)
	cobra.CheckErr(err)
	fmt.Printf("Detected block size: %d\n", blockSize)
	if attack.DetectECB(orc, blockSize) {
		fmt.Println("ECB detected via repeated-block heuristic")
	} else {
		fmt.Println("ECB not detected")
	}
}

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
	"os"

	"github.com/spf13/cobra"

	"github.com/mselway/ecbcrack/attack"
)

var (
	attackerPrefix     string
	ciphertextFileName string
)

// crackCmd represents the crack command
var crackCmd = &cobra.Command{
	Use:   "crack [secret]...",
	Short: "Recover the oracle's secret suffix byte by byte",
	Long: `Run the full chosen-plaintext attack against the oracle: detect the cipher
block size, confirm ECB mode via the repeated-block heuristic, then recover
the secret suffix one byte at a time using a per-round dictionary of all 256
candidate bytes.  The step log is written to stderr and the recovered bytes
to the output file.`,
	Run: func(cmd *cobra.Command, args []string) {
		crack(args)
	},
}

func init() {
	rootCmd.AddCommand(crackCmd)
	crackCmd.Flags().StringVarP(&attackerPrefix, "prefix", "P", "", "attacker supplied prefix included in the demo ciphertext")
	crackCmd.Flags().StringVarP(&ciphertextFileName, "ciphertextFile", "t", "", "write the demo ciphertext to this file")
	crackCmd.Flags().BoolVarP(&useASCII85, "useASCII85", "a", false, "use ASCII85 encoding for the ciphertext file")
	crackCmd.Flags().BoolVarP(&usePem, "usePem", "p", false, "use PEM encoding for the ciphertext file.")
}

func crack(args []string) {
	res := attack.Run(getKey(), []byte(attackerPrefix), getSecret(args))
	for _, step := range res.Steps {
		fmt.Fprintln(os.Stderr, step)
	}
	fout := getOutputFile()
	defer fout.Close()
	_, err := fout.Write(res.Recovered)
	checkError(err)
	if len(ciphertextFileName) > 0 {
		cfile, err := os.Create(ciphertextFileName)
		cobra.CheckErr(err)
		defer cfile.Close()
		writeCiphertext(cfile, res.Ciphertext)
	}
}

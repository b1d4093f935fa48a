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
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/bgallie/filters/ascii85"
	"github.com/bgallie/filters/flate"
	"github.com/bgallie/filters/lines"
	"github.com/bgallie/filters/pem"
	"github.com/spf13/cobra"

	"github.com/mselway/ecbcrack/oracle"
)

var (
	useASCII85  bool
	usePem      bool
	compression bool
)

// encryptCmd represents the encrypt command
var encryptCmd = &cobra.Command{
	Use:   "encrypt [secret]...",
	Short: "Encrypt attacker input through the ECB oracle",
	Long: `Encrypt the attacker controlled input from the input file through the oracle,
which appends the secret suffix and encrypts the whole with AES-128 in ECB
mode.  This is the same oracle the crack command attacks.`,
	Run: func(cmd *cobra.Command, args []string) {
		encrypt(args)
	},
}

func init() {
	rootCmd.AddCommand(encryptCmd)
	encryptCmd.Flags().BoolVarP(&useASCII85, "useASCII85", "a", false, "use ASCII85 encoding")
	encryptCmd.Flags().BoolVarP(&usePem, "usePem", "p", false, "use PEM encoding.")
	encryptCmd.Flags().BoolVarP(&compression, "compress", "c", false, "compress the attacker input using flate")
}

func encrypt(args []string) {
	orc, err := oracle.New(getKey(), getSecret(args))
	cobra.CheckErr(err)
	fin, fout := getInputAndOutputFiles(true)
	defer fout.Close()
	var attackerInput []byte
	if compression {
		attackerInput, err = io.ReadAll(flate.ToFlate(fin))
	} else {
		attackerInput, err = io.ReadAll(fin)
	}
	checkError(err)
	writeCiphertext(fout, orc.Encrypt(attackerInput))
}

// writeCiphertext emits the ciphertext in binary, ASCII85, or PEM form
// depending on the selected flags.
func writeCiphertext(fout *os.File, ciphertext []byte) {
	rdr := bytes.NewReader(ciphertext)
	var err error
	if useASCII85 {
		_, err = io.Copy(fout, lines.SplitToLines(ascii85.ToASCII85(rdr)))
	} else if usePem {
		var blck pem.Block
		blck.Headers = make(map[string]string)
		blck.Type = "ECBCRACK CIPHERTEXT"
		if len(inputFileName) > 0 && inputFileName != "-" {
			blck.Headers["FileName"] = inputFileName
		}
		blck.Headers["Compression"] = fmt.Sprintf("%v", compression)
		_, err = io.Copy(fout, pem.ToPem(bufio.NewReader(rdr), blck))
	} else {
		_, err = io.Copy(fout, rdr)
	}
	checkError(err)
}

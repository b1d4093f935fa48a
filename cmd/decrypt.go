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
	"io"
	"os"

	"github.com/bgallie/filters/ascii85"
	"github.com/bgallie/filters/flate"
	"github.com/bgallie/filters/lines"
	"github.com/bgallie/filters/pem"
	"github.com/spf13/cobra"

	"github.com/mselway/ecbcrack/ecb"
)

// decryptCmd represents the decrypt command
var decryptCmd = &cobra.Command{
	Use:   "decrypt",
	Short: "Decrypt an ecbcrack encrypted file",
	Long: `Decrypt a file produced by the encrypt command.  The key holder sees the full
plaintext, attacker input followed by the secret suffix, which is exactly the
knowledge gap the crack command closes without the key.`,
	Run: func(cmd *cobra.Command, args []string) {
		decrypt(args)
	},
}

func init() {
	rootCmd.AddCommand(decryptCmd)
	decryptCmd.Flags().BoolVarP(&useASCII85, "useASCII85", "a", false, "the input file is ASCII85 encoded")
	decryptCmd.Flags().BoolVarP(&compression, "compress", "c", false, "the attacker input was flate compressed")
}

func decrypt(args []string) {
	key := getKey()
	fin, fout := getInputAndOutputFiles(false)
	defer fout.Close()
	bRdr := bufio.NewReader(fin)
	var ctRdr io.Reader = bRdr
	b, err := bRdr.Peek(5)
	checkError(err)
	if string(b) == "-----" {
		usePem = true
		pRdr, blck := pem.FromPem(bRdr)
		ctRdr = pRdr
		if cmpr, ok := blck.Headers["Compression"]; ok {
			compression = cmpr == "true"
		}
		if len(outputFileName) == 0 {
			if fName, ok := blck.Headers["FileName"]; ok {
				fout, err = os.Create(fName)
				checkError(err)
			}
		}
	} else if useASCII85 {
		ctRdr = ascii85.FromASCII85(lines.CombineLines(bRdr))
	}
	ciphertext, err := io.ReadAll(ctRdr)
	checkError(err)
	plaintext, err := ecb.Decrypt(key, ciphertext)
	cobra.CheckErr(err)
	if compression {
		_, err = io.Copy(fout, flate.FromFlate(bytes.NewReader(plaintext)))
	} else {
		_, err = fout.Write(plaintext)
	}
	checkError(err)
}

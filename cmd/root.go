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
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/spf13/viper"
)

var (
	cfgFile        string
	keyText        string
	inputFileName  string
	outputFileName string
	GitCommit      string = "not set"
	GitBranch      string = "not set"
	GitState       string = "not set"
	GitSummary     string = "not set"
	BuildDate      string = "not set"
	Version        string = "dev"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "ecbcrack",
	Short: "A byte-at-a-time ECB attack demonstrator",
	Long: `ecbcrack demonstrates the classic chosen-plaintext attack against AES in ECB
mode: given an oracle that encrypts attacker input followed by a fixed secret
suffix, it recovers the secret byte by byte without ever learning the key.`,
	Version: Version,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.ecbcrack.yaml)")
	rootCmd.PersistentFlags().StringVarP(&keyText, "key", "k", "", "hex encoded key for the oracle's AES-128 cipher.")
	rootCmd.PersistentFlags().StringVarP(&inputFileName, "inputFile", "i", "-", "Name of the file supplying the attacker controlled input.")
	rootCmd.PersistentFlags().StringVarP(&outputFileName, "outputFile", "o", "", "Name of the file receiving the command's output.")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".ecbcrack" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".ecbcrack")
	}

	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// getSecret obtains the secret suffix loaded into the oracle from either:
// 1. Arguments from the entered command line (least secure - not recommended)
// 2. The 'ECBCRACK_SECRET' environment variable (less secure)
// 3. User input from the terminal (most secure)
func getSecret(args []string) []byte {
	var secret string
	if len(args) == 0 {
		if viper.IsSet("ECBCRACK_SECRET") {
			secret = viper.GetString("ECBCRACK_SECRET")
		} else {
			if term.IsTerminal(int(os.Stdin.Fd())) {
				fmt.Fprintf(os.Stderr, "Enter the secret suffix: ")
				byteSecret, err := term.ReadPassword(int(os.Stdin.Fd()))
				cobra.CheckErr(err)
				fmt.Fprintln(os.Stderr, "")
				secret = string(byteSecret)
			}
		}
	} else {
		secret = strings.Join(args, " ")
	}

	if len(secret) == 0 {
		cobra.CheckErr("You must supply a secret.")
	}

	return []byte(secret)
}

// getKey obtains the oracle's key, hex encoded, from either the --key flag,
// the 'ECBCRACK_KEY' environment variable, or user input from the terminal.
// The key length is not validated here: the attack reports a bad length in
// its result so callers always receive a well-formed outcome.
func getKey() []byte {
	text := keyText
	if len(text) == 0 {
		if viper.IsSet("ECBCRACK_KEY") {
			text = viper.GetString("ECBCRACK_KEY")
		} else {
			if term.IsTerminal(int(os.Stdin.Fd())) {
				fmt.Fprintf(os.Stderr, "Enter the hex encoded key: ")
				byteKey, err := term.ReadPassword(int(os.Stdin.Fd()))
				cobra.CheckErr(err)
				fmt.Fprintln(os.Stderr, "")
				text = string(byteKey)
			}
		}
	}

	if len(text) == 0 {
		cobra.CheckErr("You must supply a key.")
	}

	key, err := hex.DecodeString(text)
	cobra.CheckErr(err)
	return key
}

/*
	getInputAndOutputFiles will return the input and output files to use while
	encrypting/decrypting data.  If input and/or output files names were given,
	then those files will be opened.  Otherwise stdin and stdout are used.
*/
func getInputAndOutputFiles(encrypting bool) (*os.File, *os.File) {
	var fin *os.File
	var err error

	if len(inputFileName) > 0 {
		if inputFileName == "-" {
			fin = os.Stdin
		} else {
			fin, err = os.Open(inputFileName)
			cobra.CheckErr(err)
		}
	} else {
		fin = os.Stdin
	}

	var fout *os.File

	if len(outputFileName) > 0 {
		if outputFileName == "-" {
			fout = os.Stdout
		} else {
			fout, err = os.Create(outputFileName)
			cobra.CheckErr(err)
		}
	} else if inputFileName == "-" {
		fout = os.Stdout
	} else if encrypting {
		outputFileName = inputFileName + ".ecb"
		fout, err = os.Create(outputFileName)
		cobra.CheckErr(err)
	} else {
		if strings.HasSuffix(inputFileName, ".ecb") {
			outputFileName = inputFileName[:len(inputFileName)-4]
			fout, err = os.Create(outputFileName)
			cobra.CheckErr(err)
		} else {
			fout = os.Stdout
		}
	}
	return fin, fout
}

// getOutputFile returns the file the command's output is written to, which
// is stdout unless an output file name was given.
func getOutputFile() *os.File {
	if len(outputFileName) > 0 && outputFileName != "-" {
		fout, err := os.Create(outputFileName)
		cobra.CheckErr(err)
		return fout
	}
	return os.Stdout
}

// checkError checks for errors that are not io.EOF and io.ErrUnexpectedEOF and logs them.
func checkError(e error) {
	if e != io.EOF && e != io.ErrUnexpectedEOF {
		cobra.CheckErr(e)
	}
}

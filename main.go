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

// ecbcrack demonstrates the byte-at-a-time chosen-plaintext attack against
// AES operated in ECB mode.  The oracle encrypts attacker input followed by
// a fixed secret suffix; the attack recovers the suffix without the key.
package main

import "github.com/mselway/ecbcrack/cmd"

func main() {
	cmd.Execute()
}

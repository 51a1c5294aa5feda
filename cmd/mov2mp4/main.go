// Command mov2mp4 batch-converts QuickTime MOV files to MP4 by driving
// ffmpeg with a bounded pool of worker processes.
package main

import "os"

func main() {
	os.Exit(Execute())
}

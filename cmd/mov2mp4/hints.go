package main

// installHints tells the user how to get ffmpeg onto this machine.
func installHints() string {
	return `
Please install FFmpeg:
  macOS:   brew install ffmpeg
  Linux:   sudo apt install ffmpeg  (Ubuntu/Debian)
           sudo yum install ffmpeg  (CentOS/RHEL)
  Windows: Download from https://ffmpeg.org/download.html
`
}

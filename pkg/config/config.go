package config

// NOTE: frame text is written left to right, top to bottom, one row per line
const (
	// container layout
	MetadataFilename = "metadata.txt"
	FramePrefix      = "frame_"
	FrameExt         = ".txt"
	FrameIndexWidth  = 4

	// naming used by the cli when no --out is given
	FramesDirSuffix     = "_frames"
	ReconstructedSuffix = "_reconstructed"
	DefaultVideoExt     = ".mkv"
	DefaultImageFormat  = "png"

	// 8k wide frame is 7680*7 bytes per line, leave plenty of room
	MaxLineSize = 64 * 1024 * 1024

	// quality for jpeg output, the original tool saved with quality=100
	JPEGQuality = 100

	// tmp dir pattern for the round trip test command
	PathTmpPattern = "textreel-*"
	// files are written as .<name>.<random>.tmp and renamed when complete
	TmpFileSuffix = ".*.tmp"
)

package organize

// Outcome is the terminal state a file reaches in the pipeline. Exactly one
// outcome is recorded per file that starts processing.
type Outcome int

const (
	// OutcomeRenamed means the file was identified and moved into the
	// named-article directory.
	OutcomeRenamed Outcome = iota

	// OutcomeMissingDOI means no DOI could be detected in the file.
	OutcomeMissingDOI

	// OutcomeInsufficientMetadata means the DOI resolved to nothing, or to
	// metadata below the renaming bar (title plus author or year).
	OutcomeInsufficientMetadata

	// OutcomeReadError means the file could not be opened or parsed as a PDF.
	OutcomeReadError

	// OutcomeEncryptedError means the PDF is password-protected.
	OutcomeEncryptedError

	// OutcomeFilesystemError means a backup, move, or mkdir failed.
	OutcomeFilesystemError

	// OutcomeUnexpected covers a panic during a file's processing. The run
	// continues with the remaining files.
	OutcomeUnexpected
)

// Success reports whether the outcome counts as renamed rather than
// problematic.
func (o Outcome) Success() bool {
	return o == OutcomeRenamed
}

// Tag returns the diagnostic reason tag carried in logs and summaries.
func (o Outcome) Tag() string {
	switch o {
	case OutcomeRenamed:
		return "Renamed"
	case OutcomeMissingDOI:
		return "Missing_DOI"
	case OutcomeInsufficientMetadata:
		return "No_Metadata"
	case OutcomeReadError:
		return "Read_Error"
	case OutcomeEncryptedError:
		return "Encrypted"
	case OutcomeFilesystemError:
		return "Filesystem_Error"
	default:
		return "Unexpected_Error"
	}
}

// quarantinePrefix is the optional filename prefix applied when quarantining,
// so a glance at the unnamed directory explains each file.
func (o Outcome) quarantinePrefix() string {
	switch o {
	case OutcomeMissingDOI:
		return "MISSING_DOI_"
	case OutcomeInsufficientMetadata:
		return "NO_METADATA_"
	case OutcomeReadError:
		return "READ_ERROR_"
	case OutcomeEncryptedError:
		return "ENCRYPTED_"
	case OutcomeFilesystemError:
		return "FS_ERROR_"
	default:
		return "ERROR_"
	}
}

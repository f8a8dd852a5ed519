/*
Package cli provides command-line interface utilities for Lexgate.

The cli package includes output formatters, typed command errors, and signal
handling helpers used by the lexgate command.

Output Formatting:

Command results render as text or JSON:

	formatter := cli.NewFormatter(cli.FormatJSON)
	if err := formatter.FormatTo(os.Stdout, result); err != nil {
		return err
	}

Signal Handling:

For cancelling long-running operations on SIGINT/SIGTERM:

	ctx := cli.SetupSignalHandler()
	// Use ctx for operations that should stop on shutdown
*/
package cli

/*
Package cli provides the output formatting, exit codes and signal handling
used by the dispatchctl command.

Output Formatting:

Results are written as text, JSON or, for tables, CSV:

	formatter := cli.NewFormatter(cli.FormatJSON)
	if err := formatter.FormatTo(os.Stdout, result); err != nil {
		return err
	}

Exit Codes:

ExitCode maps dispatch errors to process exit codes, so scripts can tell a
rejected key (3) from throttling (4) or a timeout (5):

	os.Exit(cli.ExitCode(err))

Signal Handling:

	ctx, stop := cli.SetupSignalHandler(context.Background())
	defer stop()
*/
package cli

// Package journey runs ordered browser journeys against a live application
// and reports one pass/fail entry per step.
//
// A Runner opens one Session, executes each Step in declaration order,
// records exactly one Entry per attempted step, and closes the Session on
// every exit path. A failing or panicking step never stops the run; only a
// failure to open the session does.
//
// Steps are built from Actions (Navigate, WaitFor, Fill, Click, WaitURL, ...)
// either directly through PageLoad, FormSubmit, ElementPresence and
// ClickThrough, or declaratively from a YAML Plan:
//
//	plan, err := journey.LoadPlan("dental")
//	steps, err := plan.Build("http://localhost:5173", logger)
//	runner, err := journey.NewRunner(browser.Opener(cfg))
//	log, err := runner.Run(ctx, steps)
//	fmt.Print(journey.FormatText(journey.Summarize(log)))
package journey

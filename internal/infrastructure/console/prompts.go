package console

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// readLine reads one line of input; ok is false when input has ended
func (a *App) readLine() (string, bool) {
	if !a.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(a.in.Text()), true
}

func (a *App) promptLine(prompt string) (string, bool) {
	fmt.Fprint(a.out, prompt)
	return a.readLine()
}

// promptCurrency asks for a currency from the accepted set, up to
// maxPromptAttempts times
func (a *App) promptCurrency() (string, bool) {
	for attempt := 0; attempt < maxPromptAttempts; attempt++ {
		line, ok := a.promptLine(fmt.Sprintf("Currency (%s): ", strings.Join(a.currencies, ", ")))
		if !ok {
			return "", false
		}

		currency := strings.ToUpper(line)
		for _, accepted := range a.currencies {
			if currency == accepted {
				return currency, true
			}
		}

		fmt.Fprintf(a.out, "Unsupported currency. Accepted currencies: %s\n",
			strings.Join(a.currencies, ", "))
	}

	fmt.Fprintln(a.out, "Too many invalid currency attempts.")
	return "", false
}

// promptDate asks for a YYYY-MM-DD date, up to maxPromptAttempts times
func (a *App) promptDate(label string) (time.Time, bool) {
	for attempt := 0; attempt < maxPromptAttempts; attempt++ {
		line, ok := a.promptLine(fmt.Sprintf("Enter the %s (YYYY-MM-DD): ", label))
		if !ok {
			return time.Time{}, false
		}

		date, err := time.Parse(dateLayout, line)
		if err == nil {
			return date, true
		}

		fmt.Fprintln(a.out, "Invalid date format. Please use YYYY-MM-DD.")
	}

	fmt.Fprintln(a.out, "Too many invalid date attempts.")
	return time.Time{}, false
}

// promptDateAfter asks for a date that is not before earliest
func (a *App) promptDateAfter(label string, earliest time.Time) (time.Time, bool) {
	for {
		date, ok := a.promptDate(label)
		if !ok {
			return time.Time{}, false
		}

		if !date.Before(earliest) {
			return date, true
		}

		fmt.Fprintln(a.out, "The payment date must not precede the invoice issue date.")
	}
}

// promptAmount asks for a non-negative amount, looping until one is entered
func (a *App) promptAmount(prompt string) (float64, bool) {
	for {
		line, ok := a.promptLine(prompt)
		if !ok {
			return 0, false
		}

		amount, err := strconv.ParseFloat(line, 64)
		if err != nil {
			fmt.Fprintln(a.out, "Invalid amount. Please enter a number.")
			continue
		}

		if amount < 0 {
			fmt.Fprintln(a.out, "The amount must not be negative.")
			continue
		}

		return amount, true
	}
}

// promptYesNo asks a yes/no question, looping until a recognizable answer
func (a *App) promptYesNo(prompt string) (bool, bool) {
	for {
		line, ok := a.promptLine(prompt)
		if !ok {
			return false, false
		}

		switch strings.ToLower(line) {
		case "yes", "y":
			return true, true
		case "no", "n":
			return false, true
		default:
			fmt.Fprintln(a.out, "Please answer 'yes' or 'no'.")
		}
	}
}

package cli

import (
	"bufio"
	"context"
	"fmt"
	"strconv"
	"strings"
)

var mainMenu = []string{
	"Currency exchange",
	"List of currencies (Exchange rate base on USD)",
}

// Interactive runs the menu loop until the user exits or input ends
func (a *App) Interactive(ctx context.Context) {
	scanner := bufio.NewScanner(a.stdin)

	for {
		option, ok := a.showCommands(scanner, mainMenu)
		if !ok {
			return
		}

		switch option {
		case 1:
			if !a.currencyExchange(ctx, scanner) {
				return
			}
		case 2:
			if err := a.PrintRequest(ctx, PrintCurrencyList); err != nil {
				a.fail.Fprintln(a.stderr, err)
			}
		case 0:
			return
		}
	}
}

// showCommands prints the menu until a valid option is entered. The boolean
// is false once input is exhausted.
func (a *App) showCommands(scanner *bufio.Scanner, commands []string) (int, bool) {
	for {
		fmt.Fprintln(a.stdout)
		a.title.Fprintln(a.stdout, "*** Commands ***")
		for id, command := range commands {
			fmt.Fprintf(a.stdout, "%d. %s\n", id+1, command)
		}
		fmt.Fprintln(a.stdout, "0. Exit")

		line, ok := a.prompt(scanner, "option> ")
		if !ok {
			return 0, false
		}

		if option, err := strconv.Atoi(line); err == nil && option >= 0 && option <= len(commands) {
			return option, true
		}

		a.fail.Fprintln(a.stderr, "Invalid option!")
	}
}

// currencyExchange asks for a conversion until a decimal amount is given
func (a *App) currencyExchange(ctx context.Context, scanner *bufio.Scanner) bool {
	for {
		fmt.Fprintln(a.stdout)
		a.title.Fprintln(a.stdout, "*** Currency Exchange ***")

		source, ok := a.prompt(scanner, "Source currency (eg. USD): ")
		if !ok {
			return false
		}
		target, ok := a.prompt(scanner, "Target currency (eg. EUR): ")
		if !ok {
			return false
		}
		rawAmount, ok := a.prompt(scanner, "Amount (eg. 100.0): ")
		if !ok {
			return false
		}

		amount, err := strconv.ParseFloat(rawAmount, 64)
		if err != nil {
			a.fail.Fprintln(a.stderr, "An decimal amount is expected!")
			continue
		}

		conv, err := a.converter.Convert(ctx, source, target, amount)
		if err != nil {
			a.fail.Fprintln(a.stderr, err)
			return true
		}

		a.printConversion(conv)
		return true
	}
}

func (a *App) prompt(scanner *bufio.Scanner, label string) (string, bool) {
	fmt.Fprint(a.stdout, label)
	if !scanner.Scan() {
		return "", false
	}
	return strings.TrimSpace(scanner.Text()), true
}

package cli

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"
)

func (a *App) getStatus() string {
	if a.user == nil {
		return ""
	}
	return fmt.Sprintf("(%s) ", a.user.Username)
}

func (a *App) Root(ctx context.Context) {

	log.Println("Welcome to the SAE account CLI (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Printf("sae %s> ", a.getStatus())
		if !scanner.Scan() {
			break
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		cmd := parts[0]

		var err error

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				fmt.Println("Available commands: whoami, profile, passwd, avatar, logout, exit")
			} else {
				fmt.Println("Available commands: register, login, exit")
			}
		case "register":
			err = a.Register(ctx)
		case "login":
			err = a.Login(ctx)
		case "whoami":
			err = a.Whoami(ctx)
		case "profile":
			err = a.UpdateProfile(ctx)
		case "passwd":
			err = a.UpdatePassword(ctx)
		case "avatar":
			err = a.UpdateAvatar(ctx)
		case "logout":
			err = a.Logout(ctx)
		case "exit", "quit":
			fmt.Println("Bye!")
			return
		default:
			fmt.Println("Unknown command:", cmd)
		}

		if err != nil {
			fmt.Println(err.Error())
		}
	}

}

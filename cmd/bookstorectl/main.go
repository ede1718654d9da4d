package main

import (
	"fmt"
	"os"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

// bookstorectl é a ferramenta administrativa de linha de comando:
// autentica no namespace admin e chama as rotas protegidas da API.
func main() {
	app := &cli.App{
		Name:  "bookstorectl",
		Usage: "Administrative tasks against the bookstore API",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "api",
				Usage:   "Base URL of the bookstore API",
				Value:   "http://localhost:8080",
				EnvVars: []string{"BOOKSTORE_API_URL"},
			},
			&cli.StringFlag{
				Name:    "admin-user",
				Usage:   "Admin username",
				EnvVars: []string{"BOOKSTORE_ADMIN_USER"},
			},
			&cli.StringFlag{
				Name:    "admin-pass",
				Usage:   "Admin password",
				EnvVars: []string{"BOOKSTORE_ADMIN_PASS"},
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "create-admin",
				Usage: "Register a user and promote it to admin",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "username", Required: true},
					&cli.StringFlag{Name: "password", Required: true},
				},
				Action: createAdmin,
			},
			{
				Name:  "set-role",
				Usage: "Change a user's role",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "user-id", Required: true},
					&cli.StringFlag{Name: "role", Required: true, Usage: "user or admin"},
				},
				Action: setRole,
			},
			{
				Name:  "set-order-status",
				Usage: "Move an order to a new status",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "order-id", Required: true},
					&cli.StringFlag{Name: "status", Required: true},
				},
				Action: setOrderStatus,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		logrus.Fatal(err)
	}
}

func client(c *cli.Context) *resty.Client {
	return resty.New().SetBaseURL(c.String("api"))
}

// adminLogin autentica no namespace administrativo e devolve o token
func adminLogin(c *cli.Context, api *resty.Client) (string, error) {
	var result struct {
		Token string `json:"token"`
	}

	resp, err := api.R().
		SetBody(map[string]string{
			"username": c.String("admin-user"),
			"password": c.String("admin-pass"),
		}).
		SetResult(&result).
		Post("/api/auth/admin")
	if err != nil {
		return "", fmt.Errorf("failed to login as admin: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("admin login rejected: %s", resp.String())
	}
	return result.Token, nil
}

func createAdmin(c *cli.Context) error {
	api := client(c)

	var registered struct {
		User struct {
			Username string `json:"username"`
		} `json:"user"`
	}
	resp, err := api.R().
		SetBody(map[string]string{
			"username": c.String("username"),
			"password": c.String("password"),
		}).
		SetResult(&registered).
		Post("/api/auth/register")
	if err != nil {
		return fmt.Errorf("failed to register user: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("registration rejected: %s", resp.String())
	}

	token, err := adminLogin(c, api)
	if err != nil {
		return err
	}

	// A promoção exige o ID interno do usuário, não o username
	var allUsers []struct {
		ID       string `json:"id"`
		Username string `json:"username"`
	}
	resp, err = api.R().
		SetAuthToken(token).
		SetResult(&allUsers).
		Get("/api/auth/all-users")
	if err != nil {
		return fmt.Errorf("failed to list users: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("listing users rejected: %s", resp.String())
	}

	var userID string
	for _, u := range allUsers {
		if u.Username == c.String("username") {
			userID = u.ID
			break
		}
	}
	if userID == "" {
		return fmt.Errorf("user %s not found after registration", c.String("username"))
	}

	resp, err = api.R().
		SetAuthToken(token).
		SetBody(map[string]string{"role": "admin"}).
		Put("/api/auth/update-role/" + userID)
	if err != nil {
		return fmt.Errorf("failed to promote user: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("promotion rejected: %s", resp.String())
	}

	logrus.Infof("✅ Admin created: %s", c.String("username"))
	return nil
}

func setRole(c *cli.Context) error {
	api := client(c)

	token, err := adminLogin(c, api)
	if err != nil {
		return err
	}

	resp, err := api.R().
		SetAuthToken(token).
		SetBody(map[string]string{"role": c.String("role")}).
		Put("/api/auth/update-role/" + c.String("user-id"))
	if err != nil {
		return fmt.Errorf("failed to update role: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("role update rejected: %s", resp.String())
	}

	logrus.Infof("✅ Role updated: %s -> %s", c.String("user-id"), c.String("role"))
	return nil
}

func setOrderStatus(c *cli.Context) error {
	api := client(c)

	token, err := adminLogin(c, api)
	if err != nil {
		return err
	}

	resp, err := api.R().
		SetAuthToken(token).
		SetBody(map[string]string{"status": c.String("status")}).
		Put("/api/orders/" + c.String("order-id") + "/status")
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("status update rejected: %s", resp.String())
	}

	logrus.Infof("✅ Order %s moved to %s", c.String("order-id"), c.String("status"))
	return nil
}

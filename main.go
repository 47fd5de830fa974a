package main

import "github.com/aybserve/clickenrent-backend-sub004/internal/app"

// @title           ClickEnRent Auth API
// @version         1.0
// @description     Сервис аутентификации: токены, подтверждение e-mail, сброс пароля, OAuth.
// @BasePath        /
func main() {
	app.Run()
}

package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/joho/godotenv"

	"github.com/yschu/twitter/backend/internal/database"
	"github.com/yschu/twitter/backend/internal/models"
)

func main() {
	godotenv.Load()

	email := flag.String("email", "", "Email address of user to promote to admin")
	revoke := flag.Bool("revoke", false, "Revoke admin privileges instead of granting")
	flag.Parse()

	if *email == "" {
		fmt.Println("Usage: promote-admin -email=user@example.com")
		fmt.Println("       promote-admin -email=user@example.com -revoke")
		return
	}

	if err := database.Initialize(); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.Close()

	var user models.User
	if err := database.DB.Where("LOWER(email) = LOWER(?)", *email).First(&user).Error; err != nil {
		fmt.Printf("User not found: %s\n", *email)
		return
	}

	if user.IsRoot() && *revoke {
		fmt.Println("The root account cannot be demoted")
		return
	}

	if *revoke {
		if !user.IsAdmin() {
			fmt.Printf("User %s is not an admin\n", user.Account)
			return
		}
		user.Role = models.RoleUser
	} else {
		if user.IsAdmin() {
			fmt.Printf("User %s is already an admin\n", user.Account)
			return
		}
		user.Role = models.RoleAdmin
	}

	if err := database.DB.Save(&user).Error; err != nil {
		log.Fatalf("Failed to update user: %v", err)
	}

	fmt.Printf("User %s role is now %s\n", user.Account, user.Role)
}

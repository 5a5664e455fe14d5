package banner

import "fmt"

// Logo is the ASCII art logo for mirador.
const Logo = `
   ███╗   ███╗██╗██████╗  █████╗ ██████╗  ██████╗ ██████╗
   ████╗ ████║██║██╔══██╗██╔══██╗██╔══██╗██╔═══██╗██╔══██╗
   ██╔████╔██║██║██████╔╝███████║██║  ██║██║   ██║██████╔╝
   ██║╚██╔╝██║██║██╔══██╗██╔══██║██║  ██║██║   ██║██╔══██╗
   ██║ ╚═╝ ██║██║██║  ██║██║  ██║██████╔╝╚██████╔╝██║  ██║
   ╚═╝     ╚═╝╚═╝╚═╝  ╚═╝╚═╝  ╚═╝╚═════╝  ╚═════╝ ╚═╝  ╚═╝
`

// Tagline is the project tagline.
const Tagline = "Watchtower for your concierge agent"

// Startup prints the banner with version and target backend.
func Startup(version, baseURL string) {
	fmt.Print(Logo)
	fmt.Printf("   %s\n", Tagline)
	fmt.Println()
	fmt.Printf("   Version:  v%s\n", version)
	fmt.Printf("   Backend:  %s\n", baseURL)
	fmt.Println()
}

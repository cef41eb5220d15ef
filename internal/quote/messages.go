package quote

import "fmt"

// Error messages shown to users.
const (
	MsgRequiredField = "Ce champ est requis"
	MsgInvalidEmail  = "Email invalide"
	MsgInvalidPhone  = "Numéro de téléphone invalide"
	MsgNetworkError  = "Erreur de connexion au serveur"
	MsgUnauthorized  = "Vous n'êtes pas autorisé à effectuer cette action"
	MsgNotFound      = "Ressource non trouvée"
	MsgServerError   = "Erreur serveur, veuillez réessayer"
	MsgGenericError  = "Une erreur est survenue"
)

// Success messages shown to users.
const (
	MsgSaved   = "Enregistré avec succès"
	MsgUpdated = "Mis à jour avec succès"
	MsgDeleted = "Supprimé avec succès"
	MsgSent    = "Envoyé avec succès"
	MsgCreated = "Créé avec succès"
)

// DefaultTaxRate is the VAT rate applied by the backend.
const DefaultTaxRate = 0.20

// MsgMinLength is the error for a value shorter than min characters.
func MsgMinLength(min int) string { return fmt.Sprintf("Minimum %d caractères requis", min) }

// MsgMaxLength is the error for a value longer than max characters.
func MsgMaxLength(max int) string { return fmt.Sprintf("Maximum %d caractères autorisés", max) }

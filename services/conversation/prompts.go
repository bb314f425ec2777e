package conversation

// Caller-facing prompts, spoken by the telephony transport.
const (
	PromptGreeting      = "Guten Tag, Praxis Dr. Müller. Darf ich Ihren Namen erfahren?"
	PromptAskPhone      = "Danke. Ihre Telefonnummer bitte."
	PromptAskDate       = "Für wann möchten Sie einen Termin?"
	PromptDateRetry     = "Das Datum habe ich leider nicht verstanden. Für wann möchten Sie einen Termin?"
	PromptNoSlots       = "An diesem Tag ist leider nichts frei. Für wann möchten Sie sonst einen Termin?"
	PromptTimeRetry     = "Diese Zeit kann ich leider nicht anbieten. Welche der genannten Zeiten passt?"
	PromptClarify       = "Ich habe Sie nicht verstanden."
	PromptBookingFail   = "Die Buchung hat leider nicht geklappt. Bitte versuchen Sie es später noch einmal."
	PromptInternalError = "Es ist ein technischer Fehler aufgetreten. Bitte rufen Sie später erneut an."

	promptOfferTwoFormat    = "Ich habe am %s um %s oder %s Uhr frei. Welche Zeit passt?"
	promptOfferOneFormat    = "Ich habe am %s um %s Uhr frei. Passt diese Zeit?"
	promptBookingDoneFormat = "Ihr Termin am %s um %s Uhr ist gebucht. Sie erhalten gleich eine SMS."
)

package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func simpleResult() map[string]any {
	return map[string]any{
		"fournisseur":    "ACME SARL",
		"acheteur":       "Client SA",
		"numero_facture": "F-2024-017",
		"date_emission":  "2024-03-01T00:00:00.000Z",
		"date_echeance":  "Non spécifié",
		"devise":         "EUR",
		"total_ttc":      "1 234,56",
	}
}

func TestValidateShape_SimpleConforms(t *testing.T) {
	err := ValidateShape(BuildSimpleInvoiceSchema(), simpleResult())
	assert.NoError(t, err)
}

func TestValidateShape_SimpleMissingKey(t *testing.T) {
	m := simpleResult()
	delete(m, "total_ttc")
	err := ValidateShape(BuildSimpleInvoiceSchema(), m)
	assert.Error(t, err)
}

func TestValidateShape_SimpleExtraKey(t *testing.T) {
	m := simpleResult()
	m["extra"] = "nope"
	err := ValidateShape(BuildSimpleInvoiceSchema(), m)
	assert.Error(t, err)
}

func TestValidateShape_FullConforms(t *testing.T) {
	m := map[string]any{
		"document": map[string]any{
			"type": "invoice", "langue": "fr", "source": "Non spécifié",
		},
		"fournisseur": map[string]any{
			"nom": "ACME SARL", "adresse": "1 rue de la Paix",
			"identifiants_fiscaux": "Non spécifié", "email": "Non spécifié",
			"telephone": "Non spécifié", "site_web": "Non spécifié",
			"iban": "Non spécifié", "bic_swift": "Non spécifié",
		},
		"acheteur": map[string]any{
			"nom": "Client SA", "adresse": "Non spécifié",
			"identifiants_fiscaux": "Non spécifié", "email": "Non spécifié",
			"telephone": "Non spécifié",
		},
		"facture": map[string]any{
			"numero": "F-2024-017", "date_emission": "2024-03-01T00:00:00.000Z",
			"date_echeance": "Non spécifié", "commande_ref": "Non spécifié",
			"conditions_paiement": "Non spécifié", "devise": "EUR",
		},
		"lignes": []any{
			map[string]any{
				"description": "Prestation", "code_article": "Non spécifié",
				"quantite": "2", "unite": "h", "prix_unitaire_ht": "100,00",
				"taux_tva": "20%", "montant_ht": "200,00", "montant_ttc": "240,00",
			},
		},
		"totaux": map[string]any{
			"sous_total_ht": "200,00", "total_tva": "40,00", "remise": "Non spécifié",
			"frais": "Non spécifié", "total_ttc": "240,00",
			"deja_regle": "Non spécifié", "reste_a_payer": "240,00",
		},
		"paiement": map[string]any{
			"moyens_acceptes": "Virement", "instructions": "Non spécifié",
			"reference_paiement": "Non spécifié",
		},
		"notes":              "Non spécifié",
		"texte_brut_complet": "FACTURE F-2024-017 ...",
	}
	require.NoError(t, ValidateShape(BuildFullInvoiceSchema(), m))
}

func TestValidateShape_FullMissingSection(t *testing.T) {
	m := map[string]any{"document": map[string]any{"type": "invoice"}}
	err := ValidateShape(BuildFullInvoiceSchema(), m)
	assert.Error(t, err)
}

func TestSchemaOf(t *testing.T) {
	simple := SchemaOf(SchemaSimple)
	full := SchemaOf(SchemaFull)

	sp, ok := simple["properties"].(map[string]any)
	require.True(t, ok)
	fp, ok := full["properties"].(map[string]any)
	require.True(t, ok)

	assert.Len(t, sp, 7)
	assert.Contains(t, fp, "lignes")
	assert.Contains(t, fp, "texte_brut_complet")
}

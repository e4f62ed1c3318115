package llm

// Shape validators for the two extraction contracts. The prompt text is
// the authoritative contract the model sees; these JSON-Schema renditions
// of the same shapes let observers check conformance after recovery.
// Conformance is advisory only: the pipeline records and logs mismatches
// but never mutates or rejects a recovered result.

// BuildSimpleInvoiceSchema returns the JSON-Schema for the flat 7-key contract.
func BuildSimpleInvoiceSchema() map[string]any {
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"fournisseur":    fieldProp(),
			"acheteur":       fieldProp(),
			"numero_facture": fieldProp(),
			"date_emission":  fieldProp(),
			"date_echeance":  fieldProp(),
			"devise":         fieldProp(),
			"total_ttc":      fieldProp(),
		},
		"required": []string{
			"fournisseur", "acheteur", "numero_facture",
			"date_emission", "date_echeance", "devise", "total_ttc",
		},
	}
}

// BuildFullInvoiceSchema returns the JSON-Schema for the nested contract.
func BuildFullInvoiceSchema() map[string]any {
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"document": objectProp(map[string]any{
				"type":   fieldProp(),
				"langue": fieldProp(),
				"source": fieldProp(),
			}),
			"fournisseur": objectProp(map[string]any{
				"nom":                  fieldProp(),
				"adresse":              fieldProp(),
				"identifiants_fiscaux": fieldProp(),
				"email":                fieldProp(),
				"telephone":            fieldProp(),
				"site_web":             fieldProp(),
				"iban":                 fieldProp(),
				"bic_swift":            fieldProp(),
			}),
			"acheteur": objectProp(map[string]any{
				"nom":                  fieldProp(),
				"adresse":              fieldProp(),
				"identifiants_fiscaux": fieldProp(),
				"email":                fieldProp(),
				"telephone":            fieldProp(),
			}),
			"facture": objectProp(map[string]any{
				"numero":              fieldProp(),
				"date_emission":       fieldProp(),
				"date_echeance":       fieldProp(),
				"commande_ref":        fieldProp(),
				"conditions_paiement": fieldProp(),
				"devise":              fieldProp(),
			}),
			"lignes": map[string]any{
				"type": "array",
				"items": objectProp(map[string]any{
					"description":      fieldProp(),
					"code_article":     fieldProp(),
					"quantite":         fieldProp(),
					"unite":            fieldProp(),
					"prix_unitaire_ht": fieldProp(),
					"taux_tva":         fieldProp(),
					"montant_ht":       fieldProp(),
					"montant_ttc":      fieldProp(),
				}),
			},
			"totaux": objectProp(map[string]any{
				"sous_total_ht": fieldProp(),
				"total_tva":     fieldProp(),
				"remise":        fieldProp(),
				"frais":         fieldProp(),
				"total_ttc":     fieldProp(),
				"deja_regle":    fieldProp(),
				"reste_a_payer": fieldProp(),
			}),
			"paiement": objectProp(map[string]any{
				"moyens_acceptes":    fieldProp(),
				"instructions":       fieldProp(),
				"reference_paiement": fieldProp(),
			}),
			"notes":              fieldProp(),
			"texte_brut_complet": fieldProp(),
		},
		"required": []string{
			"document", "fournisseur", "acheteur", "facture",
			"lignes", "totaux", "paiement", "notes", "texte_brut_complet",
		},
	}
}

// SchemaOf maps a schema kind to its validator shape.
func SchemaOf(schema Schema) map[string]any {
	if schema == SchemaSimple {
		return BuildSimpleInvoiceSchema()
	}
	return BuildFullInvoiceSchema()
}

// Every extracted value is either a literal string from the document or
// the sentinel "Non spécifié", so the leaf type is always string.
func fieldProp() map[string]any {
	return map[string]any{"type": "string"}
}

func objectProp(props map[string]any) map[string]any {
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties":           props,
	}
}

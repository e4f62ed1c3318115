package llm

// The extraction contracts live as literal prompt text: the JSON skeleton
// the model must fill is spelled out field by field, with the sentinel
// "Non spécifié" for anything unreadable. Keeping the schema in the prompt
// keeps the contract self-describing and human-auditable; RecoverJSON and
// the shape validators absorb the model's instruction-following misses.

// SimpleInvoicePrompt asks for the 7 essential invoice fields as a flat object.
const SimpleInvoicePrompt = `Tu es un expert en OCR de factures. Extrait les informations essentielles de cette facture.

INSTRUCTIONS:
- Lis attentivement le document.
- Si une information est absente ou illisible, mets "Non spécifié".
- Respecte la devise telle qu'affichée (ex: TND, EUR, USD).
- Les dates doivent être ramenées au format ISO 8601 "YYYY-MM-DDT00:00:00.000Z" si elles sont présentes (sinon "Non spécifié").

RÉPONSE REQUISE: JSON STRICT avec cette structure EXACTE:
{
  "fournisseur": "[Nom/raison sociale du vendeur]",
  "acheteur": "[Nom/raison sociale de l'acheteur]",
  "numero_facture": "[Numéro de facture]",
  "date_emission": "[YYYY-MM-DDT00:00:00.000Z ou 'Non spécifié']",
  "date_echeance": "[YYYY-MM-DDT00:00:00.000Z ou 'Non spécifié']",
  "devise": "[Devise, ex: TND/EUR/USD ou 'Non spécifié']",
  "total_ttc": "[Montant total TTC tel qu'affiché ou 'Non spécifié']"
}

Fournis UNIQUEMENT le JSON, sans texte additionnel.`

// FullInvoicePrompt asks for the complete nested extraction, line items and
// full text transcription included.
const FullInvoicePrompt = `Tu es un expert en OCR de factures (invoices) multi-langues.

TÂCHE:
- Extraire TOUT le texte structuré d'une facture: en-têtes, infos vendeur/acheteur, items, taxes, totaux, moyens de paiement.

RÈGLES:
- Pour les champs non visibles/illisibles, utiliser "Non spécifié".
- Préserver l'orthographe et les montants tels qu'affichés.
- Les nombres peuvent contenir virgule ou point selon le document (ne pas convertir).
- Les dates doivent être ramenées au format ISO 8601 "YYYY-MM-DDT00:00:00.000Z" si identifiables, sinon "Non spécifié".
- Respecter la devise telle qu'affichée (ex: TND/EUR/USD).
- Conserver l'ordre visuel des lignes d'articles.
- Garder les montants sans leur devise.

RÉPONSE REQUISE: JSON STRICT avec cette structure EXACTE:
{
  "document": {
    "type": "invoice",
    "langue": "[Langue dominante détectée]",
    "source": "[Nom du fichier si visible sur l'image sinon 'Non spécifié']"
  },
  "fournisseur": {
    "nom": "[Nom/raison sociale]",
    "adresse": "[Adresse complète ou 'Non spécifié']",
    "identifiants_fiscaux": "[Matricule TVA/SIRET/etc. ou 'Non spécifié']",
    "email": "[Email ou 'Non spécifié']",
    "telephone": "[Téléphone ou 'Non spécifié']",
    "site_web": "[URL ou 'Non spécifié']",
    "iban": "[IBAN ou 'Non spécifié']",
    "bic_swift": "[BIC/SWIFT ou 'Non spécifié']"
  },
  "acheteur": {
    "nom": "[Nom/raison sociale]",
    "adresse": "[Adresse complète ou 'Non spécifié']",
    "identifiants_fiscaux": "[TVA/SIRET/etc. ou 'Non spécifié']",
    "email": "[Email ou 'Non spécifié']",
    "telephone": "[Téléphone ou 'Non spécifié']"
  },
  "facture": {
    "numero": "[Numéro de facture]",
    "date_emission": "[YYYY-MM-DDT00:00:00.000Z ou 'Non spécifié']",
    "date_echeance": "[YYYY-MM-DDT00:00:00.000Z ou 'Non spécifié']",
    "commande_ref": "[Bon de commande ou 'Non spécifié']",
    "conditions_paiement": "[Conditions de paiement ou 'Non spécifié']",
    "devise": "[Devise, ex: TND/EUR/USD ou 'Non spécifié']"
  },
  "lignes": [
    {
      "description": "[Texte de ligne]",
      "code_article": "[Code/SKU ou 'Non spécifié']",
      "quantite": "[Quantité telle qu'affichée ou 'Non spécifié']",
      "unite": "[Unité (ex: pcs, h, kg) ou 'Non spécifié']",
      "prix_unitaire_ht": "[PU HT tel qu'affiché ou 'Non spécifié']",
      "taux_tva": "[% TVA tel qu'affiché ou 'Non spécifié']",
      "montant_ht": "[Montant HT ligne ou 'Non spécifié']",
      "montant_ttc": "[Montant TTC ligne ou 'Non spécifié']"
    }
  ],
  "totaux": {
    "sous_total_ht": "[Sous-total HT ou 'Non spécifié']",
    "total_tva": "[Total TVA ou 'Non spécifié']",
    "remise": "[Montant remise globale ou 'Non spécifié']",
    "frais": "[Frais de service/port ou 'Non spécifié']",
    "total_ttc": "[Total TTC ou 'Non spécifié']",
    "deja_regle": "[Acompte/déjà payé ou 'Non spécifié']",
    "reste_a_payer": "[Solde dû ou 'Non spécifié']"
  },
  "paiement": {
    "moyens_acceptes": "[Liste ou 'Non spécifié']",
    "instructions": "[Instructions de paiement ou 'Non spécifié']",
    "reference_paiement": "[Référence de virement/ID paiement ou 'Non spécifié']"
  },
  "notes": "[Notes/mentions légales/autres]",
  "texte_brut_complet": "[Transcription exacte de TOUT le texte visible]"
}

Fournis UNIQUEMENT le JSON, sans texte additionnel.`

// PromptFor returns the instruction text for a schema kind.
// Unknown kinds fall back to the full contract.
func PromptFor(schema Schema) string {
	if schema == SchemaSimple {
		return SimpleInvoicePrompt
	}
	return FullInvoicePrompt
}
